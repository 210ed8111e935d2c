// Command stafftoken prints a bearer token for the staff advance route,
// signed with STAFF_JWT_SECRET.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	httpadapter "storefront/internal/adapters/in/http"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	subject := flag.String("sub", "staff", "subject recorded in the token")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	token, err := httpadapter.IssueStaffToken([]byte(os.Getenv("STAFF_JWT_SECRET")), *subject, time.Now(), *ttl)
	if err != nil {
		log.Fatalf("Error issuing staff token: %v", err)
	}

	fmt.Println(token)
}
