package bot

import (
	"fmt"
	"strings"
)

// Action is the first token of callback data
type Action int

const (
	ActionMenu Action = iota + 1
	ActionLeague
	ActionAlgo
	ActionHelp
	ActionTool
	ActionAction
	ActionAdmin
	ActionPayment
)

var actionNames = map[string]Action{
	"menu":    ActionMenu,
	"league":  ActionLeague,
	"algo":    ActionAlgo,
	"help":    ActionHelp,
	"tool":    ActionTool,
	"action":  ActionAction,
	"admin":   ActionAdmin,
	"payment": ActionPayment,
}

func (a Action) String() string {
	for name, act := range actionNames {
		if act == a {
			return name
		}
	}
	return "unknown"
}

// Callback is parsed callback data: "<action>:<value>[:<value>...]"
type Callback struct {
	Action Action
	Values []string
}

// Value returns the i-th value or def when absent
func (c Callback) Value(i int, def string) string {
	if i < len(c.Values) && c.Values[i] != "" {
		return c.Values[i]
	}
	return def
}

// ParseCallback splits callback data on ':'
func ParseCallback(data string) (Callback, error) {
	parts := strings.Split(data, ":")
	act, ok := actionNames[parts[0]]
	if !ok {
		return Callback{}, fmt.Errorf("unknown action %q", parts[0])
	}
	return Callback{Action: act, Values: parts[1:]}, nil
}

// callbackData builds callback data for a button
func callbackData(action Action, values ...string) string {
	return strings.Join(append([]string{action.String()}, values...), ":")
}
