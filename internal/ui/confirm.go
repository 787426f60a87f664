package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConfirmDanger prompts on out with a yes/no question styled with the error
// color and reads the answer from in. Returns true for yes.
func ConfirmDanger(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", StyleError.Render("⚠ "+prompt))
	line, _ := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
