// Command hash-generator prints bcrypt hashes for the given passwords, for
// provisioning accounts directly in the database.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/service/auth"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run hashes each positional argument, or each stdin line when there are
// none.
func run(args []string, stdin io.Reader, stdout io.Writer) error {
	flags := pflag.NewFlagSet("hash-generator", pflag.ContinueOnError)
	cost := flags.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *cost < bcrypt.MinCost || *cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	passwords := flags.Args()
	if len(passwords) == 0 {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
				passwords = append(passwords, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading passwords: %w", err)
		}
	}

	hasher := auth.NewBcryptVerifier(*cost)
	for _, password := range passwords {
		if len(password) < domain.MinPasswordLength || len(password) > domain.MaxPasswordLength {
			return fmt.Errorf("passwords must be %d to %d bytes long",
				domain.MinPasswordLength, domain.MaxPasswordLength)
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		if _, err := fmt.Fprintln(stdout, hash); err != nil {
			return err
		}
	}
	return nil
}
