package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// stdin is read for confirmations; tests replace it.
var stdin io.Reader = os.Stdin

type command string

func (c command) action() string {
	return string(c) + " command"
}

// confirm asks before a destructive command unless force is set.
func confirm(c command, force bool) bool {
	if force {
		return true
	}
	fmt.Printf("Are you sure you want to proceed with the %s? (yes/no): ", c.action())
	line, _ := bufio.NewReader(stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y", "true", "1":
		return true
	default:
		fmt.Printf("Cancelled %s operation!\n", c)
		return false
	}
}
