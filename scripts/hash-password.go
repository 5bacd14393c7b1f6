// Command hash-password prints a bcrypt hash for seeding an admin row by hand,
// using the same cost and password rules as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/ucu-wifi/guest-portal-go/internal/auth"
	"github.com/ucu-wifi/guest-portal-go/internal/config"
	"github.com/ucu-wifi/guest-portal-go/internal/util"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-password.go <password>\n")
		os.Exit(1)
	}

	password := os.Args[1]
	if !util.IsValidAdminPassword(password) {
		fmt.Fprintf(os.Stderr, "Error: password must be in format letters@numbers (e.g., admin@123)\n")
		os.Exit(1)
	}

	cost := 12
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < config.MinBcryptCost {
			fmt.Fprintf(os.Stderr, "Error: BCRYPT_COST must be an integer >= %d\n", config.MinBcryptCost)
			os.Exit(1)
		}
		cost = n
	}

	hash, err := auth.NewHasher(cost, 1).Hash(context.Background(), password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
