package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// Minimal view of a stored character for inspection
type CharacterData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	HPCurrent int    `json:"hp_current"`
	HPMax     int    `json:"hp_max"`
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	iter := client.Scan(ctx, 0, "character:*", 0).Iterator()
	count := 0
	for iter.Next(ctx) {
		key := iter.Val()
		if key == "character:names" {
			continue
		}

		raw, err := client.Get(ctx, key).Result()
		if err != nil {
			log.Printf("Failed to read %s: %v", key, err)
			continue
		}

		var char CharacterData
		if err := json.Unmarshal([]byte(raw), &char); err != nil {
			log.Printf("Failed to decode %s: %v", key, err)
			continue
		}

		fmt.Printf("%s\t%s\tlevel %d\t%d/%d HP\n",
			char.ID, char.Name, char.Level, char.HPCurrent, char.HPMax)
		count++
	}
	if err := iter.Err(); err != nil {
		log.Fatal("Scan failed:", err)
	}

	fmt.Printf("%d characters\n", count)
}
