package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/funrun/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// getSimpleText prints prompt to w and reads a single trimmed line from
// reader. A partial line followed by EOF is returned as is.
func getSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// getPassword reads a password without echo when in is a terminal, and a
// plain line otherwise (pipes, tests).
func getPassword(in io.Reader, w io.Writer) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return getSimpleText(bufio.NewReader(in), "Password", w)
	}

	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(f.Fd()))
	defer common.WipeByteArray(pw)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
