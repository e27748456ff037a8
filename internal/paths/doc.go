// Package paths resolves the directories prefkeep works with.
//
// Defaults come from the XDG Base Directory locations exposed by
// github.com/adrg/xdg:
//
//	| Purpose            | Default                       |
//	|--------------------|-------------------------------|
//	| config file        | $XDG_CONFIG_HOME/prefkeep/    |
//	| private data root  | $XDG_DATA_HOME/prefkeep/      |
//	| backup root        | ~/GravityBox/backup/          |
//
// [Layout] derives the private storage tree (files, cache, shared_prefs)
// from the data root, and [AccessChecker] answers the storage permission
// question for the backup root.
package paths
