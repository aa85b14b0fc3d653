// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrRead indicates a configuration source that could not be read or parsed.
	ErrRead = errors.New("config: cannot read configuration")
)
