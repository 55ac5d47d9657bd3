package routefile

import (
	"fmt"
	"strings"

	"github.com/arrowroute/analyzer/internal/geneng"
)

// Format renders step as one line of route-file text, in a form Parse can
// read back exactly: ParseLine(Format(step)) == step.
func Format(step geneng.HistoryStep) string {
	switch step.Kind {
	case geneng.StepGet:
		return fmt.Sprintf("Get(%s,%s)", step.Item, step.Loc)
	case geneng.StepHybrid:
		return fmt.Sprintf("Hybrid(%s,%s)", step.Item, step.Exit)
	case geneng.StepExit:
		return fmt.Sprintf("Exit(%s)", step.Exit)
	case geneng.StepMoveLocal:
		return fmt.Sprintf("MoveLocal(%s)", step.Spot)
	case geneng.StepWarp:
		return fmt.Sprintf("Warp(%s)", step.Spot)
	case geneng.StepActivate:
		return fmt.Sprintf("Activate(%s)", step.Action)
	default:
		return fmt.Sprintf("Unknown(%d)", step.Kind)
	}
}

// FormatHistory renders history as a newline-joined route file body, one
// step per line, suitable for writing with os.WriteFile.
func FormatHistory(history []geneng.HistoryStep) string {
	lines := make([]string, len(history))
	for i, step := range history {
		lines[i] = Format(step)
	}
	return strings.Join(lines, "\n") + "\n"
}

// ParseLine parses one route-file line (already trimmed and known
// non-blank, non-comment) into a HistoryStep.
func ParseLine(line string) (geneng.HistoryStep, error) {
	open := strings.IndexByte(line, '(')
	if open < 0 || !strings.HasSuffix(line, ")") {
		return geneng.HistoryStep{}, fmt.Errorf("routefile: malformed step %q", line)
	}
	kind := line[:open]
	args := strings.Split(line[open+1:len(line)-1], ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	switch kind {
	case "Get":
		if len(args) != 2 {
			return geneng.HistoryStep{}, fmt.Errorf("routefile: Get wants 2 args, got %q", line)
		}
		return geneng.Get(geneng.ItemID(args[0]), geneng.LocationID(args[1])), nil
	case "Hybrid":
		if len(args) != 2 {
			return geneng.HistoryStep{}, fmt.Errorf("routefile: Hybrid wants 2 args, got %q", line)
		}
		return geneng.Hybrid(geneng.ItemID(args[0]), geneng.ExitID(args[1])), nil
	case "Exit":
		if len(args) != 1 {
			return geneng.HistoryStep{}, fmt.Errorf("routefile: Exit wants 1 arg, got %q", line)
		}
		return geneng.Exit(geneng.ExitID(args[0])), nil
	case "MoveLocal":
		if len(args) != 1 {
			return geneng.HistoryStep{}, fmt.Errorf("routefile: MoveLocal wants 1 arg, got %q", line)
		}
		return geneng.MoveLocal(geneng.SpotID(args[0])), nil
	case "Warp":
		if len(args) != 1 {
			return geneng.HistoryStep{}, fmt.Errorf("routefile: Warp wants 1 arg, got %q", line)
		}
		return geneng.Warp(geneng.SpotID(args[0])), nil
	case "Activate":
		if len(args) != 1 {
			return geneng.HistoryStep{}, fmt.Errorf("routefile: Activate wants 1 arg, got %q", line)
		}
		return geneng.Activate(geneng.ActionID(args[0])), nil
	default:
		return geneng.HistoryStep{}, fmt.Errorf("routefile: unknown step kind %q", kind)
	}
}

// Parse reads a whole route file's text, skipping blank lines and
// '#'-prefixed comments.
func Parse(text string) ([]geneng.HistoryStep, error) {
	var out []geneng.HistoryStep
	for n, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("routefile: line %d: %w", n+1, err)
		}
		out = append(out, step)
	}
	return out, nil
}
