// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"sort"
	"strings"
)

// ThreadKinds lists the short names of the thread amounts, as accepted by
// [ThreadAmounts.With].
var ThreadKinds = []string{"ping", "load", "result", "save"}

// Validate fails with [ErrSettings] unless all thread amounts are positive
// and the load and save threads don't exceed [MaxTileThreads].
func (t ThreadAmounts) Validate() error {
	keys := t.keys()
	names := make([]string, 0, len(keys))
	for key := range keys {
		names = append(names, key)
	}
	sort.Strings(names)
	for _, key := range names {
		if keys[key] < 1 {
			return fmt.Errorf("%s must be at least 1, got %d: %w", key, keys[key], ErrSettings)
		}
	}
	if t.Load > MaxTileThreads {
		return fmt.Errorf("load_thread_amount cannot be more than %d, got %d: %w",
			MaxTileThreads, t.Load, ErrSettings)
	}
	if t.Save > MaxTileThreads {
		return fmt.Errorf("save_thread_amount cannot be more than %d, got %d: %w",
			MaxTileThreads, t.Save, ErrSettings)
	}
	return nil
}

// With returns a copy of the thread amounts with the amount of the specified
// kind ("ping", "load", "result", or "save") changed. The result isn't
// validated.
func (t ThreadAmounts) With(kind string, amount int) (ThreadAmounts, error) {
	switch strings.TrimSuffix(strings.ToLower(kind), "_thread_amount") {
	case "ping":
		t.Ping = amount
	case "load":
		t.Load = amount
	case "result":
		t.Result = amount
	case "save":
		t.Save = amount
	default:
		return t, fmt.Errorf("unknown thread kind %q, must be one of %s: %w",
			kind, strings.Join(ThreadKinds, ", "), ErrSettings)
	}
	return t, nil
}

// Amount returns the amount of threads of the specified kind, accepting the
// same kind names as [ThreadAmounts.With].
func (t ThreadAmounts) Amount(kind string) (int, error) {
	key := strings.TrimSuffix(strings.ToLower(kind), "_thread_amount") + "_thread_amount"
	amount, ok := t.keys()[key]
	if !ok {
		return 0, fmt.Errorf("unknown thread kind %q, must be one of %s: %w",
			kind, strings.Join(ThreadKinds, ", "), ErrSettings)
	}
	return amount, nil
}

// String returns the thread amounts in "ping=4 load=32 result=16 save=32"
// notation.
func (t ThreadAmounts) String() string {
	return fmt.Sprintf("ping=%d load=%d result=%d save=%d", t.Ping, t.Load, t.Result, t.Save)
}

func (t ThreadAmounts) keys() map[string]int {
	return map[string]int{
		"ping_thread_amount":   t.Ping,
		"load_thread_amount":   t.Load,
		"result_thread_amount": t.Result,
		"save_thread_amount":   t.Save,
	}
}
