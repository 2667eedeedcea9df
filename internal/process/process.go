// Package process runs external converters so that cancellation reaches
// every process they spawn.
package process

import "time"

// waitDelay bounds how long Wait blocks on output pipes after the process
// was killed.
const waitDelay = 5 * time.Second
