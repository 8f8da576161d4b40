// Package configs resolves where mspkeys keeps its files and loads the
// optional user configuration.
//
// # Locations
//
// The keystore lives in the MSP Studio data directory so that the desktop
// app and the command line share it:
//
//   - Linux and other unix: $XDG_DATA_HOME/msp-studio, or ~/.local/share/msp-studio
//   - macOS: ~/Library/Application Support/com.podtards.msp-studio
//   - Windows: %APPDATA%\podtards\msp-studio\data
//
// MSPKEYS_DATA_DIR overrides the data directory, and MSPKEYS_CONFIG_DIR
// overrides the directory holding config.toml.
//
// # Configuration
//
// config.toml is optional. A missing file means defaults:
//
//	[keystore]
//	data_dir = ""
//
//	[audit]
//	enabled = false
//
//	[ui]
//	spinner = true
//
// The key derivation cost is not configurable: keystore entries do not
// record it, so changing it would make every existing entry unreadable.
//
// Call InitSettings before reading UserSettings or GlobalConfig.
package configs
