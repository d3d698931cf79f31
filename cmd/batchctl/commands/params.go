package commands

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/teranos/batchrest/errors"
)

// addParamFlags registers -p key=value and --params "k=v k2='a b'".
func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("param", "p", nil, "Job parameter key=value (repeatable)")
	cmd.Flags().String("params", "", `Job parameters as one shell-quoted string, e.g. "date=2026-10-19 note='month end'"`)
}

func paramsFromFlags(cmd *cobra.Command) (map[string]string, error) {
	pairs, _ := cmd.Flags().GetStringArray("param")
	quoted, _ := cmd.Flags().GetString("params")
	return parseParams(pairs, quoted)
}

// parseParams merges quoted (split with shell rules) and pairs; pairs win
// on duplicate keys. Returns nil when there are no parameters.
func parseParams(pairs []string, quoted string) (map[string]string, error) {
	var words []string
	if strings.TrimSpace(quoted) != "" {
		split, err := shellquote.Split(quoted)
		if err != nil {
			return nil, errors.WithHint(
				errors.WrapInvalidRequest(err, "invalid --params"),
				`quote values containing spaces: --params "note='month end'"`)
		}
		words = split
	}
	words = append(words, pairs...)
	if len(words) == 0 {
		return nil, nil
	}

	params := make(map[string]string, len(words))
	for _, w := range words {
		key, value, ok := strings.Cut(w, "=")
		if !ok || key == "" {
			return nil, errors.NewInvalidRequestError("job parameter %q must be key=value", w)
		}
		params[key] = value
	}
	return params, nil
}
