package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxNameLength is the longest accepted display name.
const MaxNameLength = 50

var (
	ErrNameEmpty   = errors.New("player name is empty")
	ErrNameTooLong = errors.New("player name is too long")
)

// ValidateName checks a display name against the join rules.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if len([]rune(name)) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// PromptName reads candidate names from scanner until one validates, echoing
// a distinct message per violation. There is no retry limit: validation
// failures only repeat the prompt. The scanner is shared with the click
// reader so input buffered past the accepted name is not lost.
func PromptName(ctx context.Context, scanner *bufio.Scanner, w io.Writer) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(w, "Player name: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading player name: %w", err)
			}
			return "", io.ErrUnexpectedEOF
		}

		name := strings.TrimSpace(scanner.Text())
		switch err := ValidateName(name); {
		case errors.Is(err, ErrNameEmpty):
			fmt.Fprintln(w, "Please select a player name.")
		case errors.Is(err, ErrNameTooLong):
			fmt.Fprintln(w, "Player name must contain less than 50 characters.")
		default:
			return name, nil
		}
	}
}
