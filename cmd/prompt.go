package cmd

import (
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const newSearchLabel = "New search..."

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func promptText(cmd *cobra.Command, label string, secret bool) (string, error) {
	prompt := promptui.Prompt{
		Label:  label,
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: nopWriteCloser{cmd.OutOrStdout()},
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.Errorf("%s is required", strings.ToLower(label))
			}
			return nil
		},
	}
	if secret {
		prompt.Mask = '•'
	}
	value, err := prompt.Run()
	if err != nil {
		return "", errors.Wrapf(err, "read %s", strings.ToLower(label))
	}
	return value, nil
}

// promptSearchQuery offers the recent searches first and falls back to free text.
func promptSearchQuery(cmd *cobra.Command, recent []string) (string, error) {
	if len(recent) == 0 {
		return promptText(cmd, "Search", false)
	}

	items := append([]string{newSearchLabel}, recent...)
	selectQuery := promptui.Select{
		Label:  "Recent searches",
		Items:  items,
		Size:   10,
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: nopWriteCloser{cmd.OutOrStdout()},
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}
	_, query, err := selectQuery.Run()
	if err != nil {
		return "", errors.Wrap(err, "select search")
	}
	if query == newSearchLabel {
		return promptText(cmd, "Search", false)
	}
	return query, nil
}
