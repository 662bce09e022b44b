package modifier

import (
	"fmt"

	"github.com/sat8bit/taiwa/configs"
)

// DefaultPool parses the modifier pool embedded in the binary.
func DefaultPool() (*Pool, error) {
	pool, err := Parse(configs.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("modifier.DefaultPool: %w", err)
	}
	return pool, nil
}
