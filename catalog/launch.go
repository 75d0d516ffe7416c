package catalog

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Launch starts the application behind the given entry ID. The child is
// released immediately so the launcher never waits on it.
func (c *Catalog) Launch(id string) error {
	e, ok := c.Entry(id)
	if !ok {
		return fmt.Errorf("catalog: unknown entry %q", id)
	}
	if e.Missing {
		return fmt.Errorf("catalog: %q has no resolvable executable", e.ID)
	}

	argv := stripFieldCodes(splitExec(e.Exec))
	if len(argv) == 0 {
		return fmt.Errorf("catalog: entry %q has an empty Exec line", e.ID)
	}

	if insideFlatpak() {
		argv = append([]string{"flatpak-spawn", "--host"}, argv...)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("catalog: launching %q: %w", e.ID, err)
	}
	return cmd.Process.Release()
}

// splitExec tokenizes a desktop Exec line, honoring double quotes and the
// %% escape for a literal percent sign.
func splitExec(line string) []string {
	var (
		argv     []string
		current  strings.Builder
		inQuote  bool
		hasToken bool
	)

	flush := func() {
		if hasToken {
			argv = append(argv, current.String())
			current.Reset()
			hasToken = false
		}
	}

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			inQuote = !inQuote
			hasToken = true
		case ch == '\\' && inQuote && i+1 < len(line):
			i++
			current.WriteByte(line[i])
			hasToken = true
		case ch == ' ' && !inQuote:
			flush()
		case ch == '%' && i+1 < len(line) && line[i+1] == '%':
			i++
			current.WriteByte('%')
			hasToken = true
		default:
			current.WriteByte(ch)
			hasToken = true
		}
	}
	flush()
	return argv
}

// stripFieldCodes removes the %f/%F/%u/%U style placeholders, which the
// launcher never fills in.
func stripFieldCodes(argv []string) []string {
	out := argv[:0]
	for _, a := range argv {
		if len(a) == 2 && a[0] == '%' && strings.ContainsRune("fFuUdDnNickvm", rune(a[1])) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func insideFlatpak() bool {
	_, err := os.Stat("/.flatpak-info")
	return err == nil
}
