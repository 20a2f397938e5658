// Package config loads composer settings.
//
// Settings come from three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← COMPOSER_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← composer.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// The merged map is decoded into a Config and validated. Watch reloads
// the file when it changes on disk.
//
// # Sub-packages
//
//   - loader: TOML file and environment variable sources
//   - watcher: fsnotify based file change notification
package config
