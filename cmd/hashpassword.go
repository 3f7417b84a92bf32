package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"grimm.is/ifctl/internal/auth"
)

// RunHashPassword reads a password from stdin and prints the argon2id PHC
// string for the admin_password_hash config field.
func RunHashPassword() error {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
