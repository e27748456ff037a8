// Package backup saves and restores the application's settings to a single
// backup slot on shared storage.
//
// # Layout
//
// A backup root holds the preference files, a files directory for generic
// file artifacts and app picker caches, and two flag files:
//
//	<root>/
//	├── .backup_ok_lp          completed backup (current contract)
//	├── .backup_ok             completed backup (older release line)
//	├── .nomedia
//	├── <package>_preferences.xml
//	├── ledcontrol.xml, quiet_hours.xml, tuner.xml
//	└── files/
//	    ├── lockwallpaper, caller_photo, ...
//	    └── app_picker/
//
// # Validity
//
// [Engine.Backup] deletes .backup_ok_lp before copying anything and writes
// it again only after every copy succeeded. A root without the flag is never
// restored from, even when most files are present. The .backup_ok flag is
// only read: a root carrying it alone is reported by [Engine.IsBackupObsolete].
//
// # Restoring
//
// [Engine.Restore] looks for the primary preference file under its current
// name first and then under each of [LegacyPrimaryNames], writing it back
// under the current name. Optional artifacts missing from the backup are
// skipped. Restored files are made world readable.
//
// # Errors
//
// Every failure is reported once through the [UserNotifier] and returned as
// an error marked with one of the package sentinels, such as [ErrNoBackup]
// or [ErrCopyFailed]; test with errors.Is.
package backup
