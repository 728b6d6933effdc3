// Command create-admin adds an admin account to the database.
//
// The password is read from stdin and confirmed, or generated with -generate.
package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ahscorp/hiring-hive-platform/internal/config"
	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// generateRandomString creates a random hex string of length 2n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	s, _ := reader.ReadString('\n')
	return strings.TrimSpace(s)
}

func main() {
	email := flag.String("email", "", "admin email")
	generate := flag.Bool("generate", false, "generate a random password")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)
	if *email == "" {
		*email = prompt(reader, "Enter email: ")
	}
	if err := utilities.ValidateEmail(*email); err != nil {
		log.Fatalf("Invalid email: %v", err)
	}

	var password string
	if *generate {
		password = generateRandomString(8)
	} else {
		password = prompt(reader, "Enter password: ")
		if password != prompt(reader, "Confirm password: ") {
			fmt.Println("Passwords do not match.")
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	db, err := database.GetMainDB(cfg.DB)
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.UserByEmail(ctx, *email); err == nil {
		fmt.Println("Email already taken")
		os.Exit(1)
	} else if !errors.Is(err, database.ErrNotFound) {
		log.Fatalf("Failed to look up user: %v", err)
	}

	admin, err := db.CreateAdmin(ctx, *email, password)
	if err != nil {
		log.Fatal("failed to create admin: ", err)
	}

	fmt.Println("Admin account created successfully!")
	fmt.Println("======================================")
	fmt.Printf("Email: %s\n", admin.Email)
	if *generate {
		// only time the plain password is shown
		fmt.Printf("Password: %s\n", password)
	}
	fmt.Println("======================================")
}
