package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"memory-backend/pkg/api"
	"memory-backend/pkg/client"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

type Config struct {
	APIURL string `env:"MEMORY_API_URL" envDefault:"http://localhost:8000"`
	Token  string `env:"MEMORY_API_TOKEN"`
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.Fatalf("Error writing output: %v", err)
	}
}

func main() {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	listArgs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := listArgs.Int("limit", 0, "Maximum number of records")
	offset := listArgs.Int("offset", 0, "Number of records to skip")

	getArgs := flag.NewFlagSet("get", flag.ExitOnError)
	getId := getArgs.Uint("id", 0, "Id of the record")

	createArgs := flag.NewFlagSet("create", flag.ExitOnError)
	message := createArgs.String("message", "", "Message to send")
	session := createArgs.String("session", "", "Session id to continue")

	deleteArgs := flag.NewFlagSet("delete", flag.ExitOnError)
	deleteId := deleteArgs.Uint("id", 0, "Id of the record")

	if len(os.Args) < 2 {
		log.Fatalf("expected 'list', 'get', 'create' or 'delete' subcommands")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c := client.New(cfg.APIURL)
	if cfg.Token != "" {
		c = c.WithToken(cfg.Token)
	}

	switch os.Args[1] {
	case "list":
		if err := listArgs.Parse(os.Args[2:]); err != nil {
			log.Fatalf("Error parsing arguments: %v", err)
		}
		memories, err := c.ListMemories(ctx, api.ListMemoriesParams{Limit: *limit, Offset: *offset})
		if err != nil {
			log.Fatalf("Error listing memories: %v", err)
		}
		printJSON(memories)

	case "get":
		if err := getArgs.Parse(os.Args[2:]); err != nil {
			log.Fatalf("Error parsing arguments: %v", err)
		}
		memory, err := c.GetMemory(ctx, *getId)
		if err != nil {
			log.Fatalf("Error getting memory %d: %v", *getId, err)
		}
		printJSON(memory)

	case "create":
		if err := createArgs.Parse(os.Args[2:]); err != nil {
			log.Fatalf("Error parsing arguments: %v", err)
		}
		req := api.CreateMemoryRequest{UserMessage: *message}
		if *session != "" {
			id, err := uuid.Parse(*session)
			if err != nil {
				log.Fatalf("Invalid session id '%s': %v", *session, err)
			}
			req.SessionId = &id
		}
		memory, err := c.CreateMemory(ctx, req)
		if err != nil {
			log.Fatalf("Error creating memory: %v", err)
		}
		printJSON(memory)

	case "delete":
		if err := deleteArgs.Parse(os.Args[2:]); err != nil {
			log.Fatalf("Error parsing arguments: %v", err)
		}
		if err := c.DeleteMemory(ctx, *deleteId); err != nil {
			log.Fatalf("Error deleting memory %d: %v", *deleteId, err)
		}

	default:
		log.Fatalf("expected 'list', 'get', 'create' or 'delete' subcommands")
	}
}
