// Package messages holds the user-facing texts of the money command.
package messages

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fastprodman/moneyd/internal/resolver"
)

//go:embed default.yaml
var defaults []byte

// Catalog maps message keys to texts with positional {0}, {1}, ...
// placeholders.
type Catalog struct {
	texts map[string]string
}

func Default() *Catalog {
	texts, err := parse(defaults)
	if err != nil {
		panic(fmt.Sprintf("embedded message catalog: %v", err))
	}

	return &Catalog{texts: texts}
}

// Load returns the built-in catalog with the keys of the YAML file at path
// replaced. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message catalog: %w", err)
	}

	overrides, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("message catalog %s: %w", path, err)
	}

	maps.Copy(c.texts, overrides)

	return c, nil
}

func parse(data []byte) (map[string]string, error) {
	texts := make(map[string]string)

	err := yaml.Unmarshal(data, &texts)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return texts, nil
}

// Format renders the message for key. Unknown keys render as the key itself
// so a missing entry is visible rather than silent.
func (c *Catalog) Format(key string, args ...string) string {
	text, ok := c.texts[key]
	if !ok {
		return key
	}

	if len(args) == 0 {
		return text
	}

	pairs := make([]string, 0, 2*len(args))
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", arg)
	}

	return strings.NewReplacer(pairs...).Replace(text)
}

// Help lists the command forms the caller may use. In multi-scope mode
// interactive callers see an optional [<scope>] on each form; others must
// name the scope.
func (c *Catalog) Help(label string, caller resolver.Caller, multi bool) []string {
	h := helpWriter{catalog: c, label: label, caller: caller, multi: multi}

	h.out = append(h.out, c.Format("help-header"))

	if caller.Interactive {
		if multi {
			h.out = append(h.out, c.Format("help-multi-world"))
		} else {
			h.out = append(h.out, c.Format("help-single-world"))
		}

		h.line("", multi, "help-view-self")
	}

	if caller.Caps.ViewOther {
		h.otherForm("<player>", "help-view-player")
	}

	if caller.Caps.Send {
		h.otherForm("send <player> <amount>", "help-send")
	}

	for _, verb := range []resolver.Verb{resolver.VerbSet, resolver.VerbGive, resolver.VerbTake} {
		if caller.Interactive && caller.Caps.SetSelf {
			h.line(string(verb)+" <amount>", multi, "help-"+string(verb)+"-self")
		}

		if caller.Caps.SetOther {
			h.otherForm(string(verb)+" <player> <amount>", "help-"+string(verb)+"-player")
		}
	}

	h.line("help", false, "help-help")

	return h.out
}

type helpWriter struct {
	catalog *Catalog
	label   string
	caller  resolver.Caller
	multi   bool
	out     []string
}

func (h *helpWriter) line(args string, optionalScope bool, key string) {
	command := h.label
	if args != "" {
		command += " " + args
	}

	if optionalScope {
		command += " [<scope>]"
	}

	h.out = append(h.out, h.catalog.Format("help-line", command, h.catalog.Format(key)))
}

func (h *helpWriter) otherForm(args, key string) {
	if h.caller.Interactive || !h.multi {
		h.line(args, h.multi, key)

		return
	}

	h.line(args+" <scope>", false, key)
}
