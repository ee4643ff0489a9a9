// Package apps provides the file-backed store for managed backend
// application configurations.
package apps

import "github.com/user/chatstream/internal/types"

// Compile-time interface compliance check.
var _ types.AppStore = (*Store)(nil)
