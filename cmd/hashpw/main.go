// Command hashpw reads a password from stdin and prints the bcrypt hash to
// put in the auth.cashiers roster.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/georgemunganga/kasir-backend/internal/modules/user"
)

func main() {
	name := flag.String("name", "", "cashier name; prints a full name:hash roster entry")
	cost := flag.Int("cost", 0, "bcrypt cost (0 for the default)")
	flag.Parse()

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		log.Fatal("read password: ", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		log.Fatal("empty password")
	}

	hash, err := user.HashPassword(password, *cost)
	if err != nil {
		log.Fatal(err)
	}
	if *name != "" {
		fmt.Printf("%s:%s\n", *name, hash)
		return
	}
	fmt.Println(hash)
}
