// Package banner renders the CLI start-up banner.
package banner

import "fmt"

const art = `  __                          _       _          _
 / _|_ __ __ _ _ __ ___   ___| | __ _| |__   ___| |___
| |_| '__/ _' | '_ ' _ \ / _ \ |/ _' | '_ \ / _ \ / __|
|  _| | | (_| | | | | | |  __/ | (_| | |_) |  __/ \__ \
|_| |_|  \__,_|_| |_| |_|\___|_|\__,_|_.__/ \___|_|___/
`

// Banner returns the banner text followed by the version line.
func Banner(version string) string {
	return fmt.Sprintf("%s  frame-level label index  %s\n\n", art, version)
}
