package backup

import (
	"github.com/cockroachdb/errors"
)

// File names inside the backup root.
const (
	// FlagName marks a completed backup under the current validity contract.
	FlagName = ".backup_ok_lp"

	// ObsoleteFlagName marks a backup written by an older release line.
	ObsoleteFlagName = ".backup_ok"

	// NoMediaName suppresses media scanning of the backup root.
	NoMediaName = ".nomedia"

	// FilesDirName holds generic file artifacts and the files archive.
	FilesDirName = "files"

	// AppPickerDirName holds user-selected item caches, both live and backed up.
	AppPickerDirName = "app_picker"

	// RestoreMarkerPrefix prefixes the identity in the post-restore marker file.
	RestoreMarkerPrefix = "uuid_"
)

// LegacyPrimaryNames lists older primary preference file names, newest first.
var LegacyPrimaryNames = []string{
	"com.ceco.nougat.gravitybox_preferences.xml",
	"com.ceco.marshmallow.gravitybox_preferences.xml",
	"com.ceco.lollipop.gravitybox_preferences.xml",
}

// Sentinel errors. Engine errors carry exactly one of these; the underlying
// OS error, when there is one, stays in the chain.
var (
	// ErrPermissionDenied indicates storage read/write access is not granted.
	ErrPermissionDenied = errors.New("storage permission denied")

	// ErrDirectoryCreate indicates the backup or restore target tree could not be created.
	ErrDirectoryCreate = errors.New("creating directory failed")

	// ErrCopyFailed indicates a single artifact copy failed.
	ErrCopyFailed = errors.New("copy failed")

	// ErrSourceMissing indicates the primary preference file was not found.
	ErrSourceMissing = errors.New("primary preferences not found")

	// ErrFlagWrite indicates the backup flag could not be updated.
	ErrFlagWrite = errors.New("updating backup flag failed")

	// ErrNoBackup indicates restore was requested without a valid backup.
	ErrNoBackup = errors.New("no backup available")
)

// Class selects where an artifact is stored inside the backup root.
type Class int

const (
	// ClassPreference artifacts live directly in the backup root.
	ClassPreference Class = iota
	// ClassFile artifacts live in the backup root's files directory.
	ClassFile
)

func (c Class) String() string {
	if c == ClassFile {
		return "file"
	}
	return "preference"
}

// Artifact is one named unit of backed-up content.
type Artifact struct {
	Name     string
	Class    Class
	Required bool
}

// Manifest is the ordered list of artifacts handled by backup and restore.
type Manifest []Artifact

// DefaultManifest returns the standard artifact list with primary as the
// required first entry.
func DefaultManifest(primary string) Manifest {
	return Manifest{
		{Name: primary, Class: ClassPreference, Required: true},
		{Name: "ledcontrol.xml", Class: ClassPreference},
		{Name: "quiet_hours.xml", Class: ClassPreference},
		{Name: "tuner.xml", Class: ClassPreference},
		{Name: "lockwallpaper", Class: ClassFile},
		{Name: "notifwallpaper", Class: ClassFile},
		{Name: "notifwallpaper_landscape", Class: ClassFile},
		{Name: "caller_photo", Class: ClassFile},
		{Name: "navbar_custom_key_image", Class: ClassFile},
	}
}

// MessageKind identifies a one-shot user-visible outcome message.
type MessageKind int

const (
	// MsgPermissionDenied reports missing read/write access to the backup root.
	MsgPermissionDenied MessageKind = iota
	// MsgBackupFailed reports a backup that stopped on an I/O error.
	MsgBackupFailed
	// MsgBackupNoPrefs reports a backup with no primary preferences to copy.
	MsgBackupNoPrefs
	// MsgBackupSuccess reports a completed backup.
	MsgBackupSuccess
	// MsgRestoreNoBackup reports a restore attempted without a completed backup.
	MsgRestoreNoBackup
	// MsgRestoreFailed reports a restore that stopped on an I/O error.
	MsgRestoreFailed
	// MsgRestoreSuccess reports a completed restore.
	MsgRestoreSuccess
)

var messageText = map[MessageKind]string{
	MsgPermissionDenied: "Storage permission denied",
	MsgBackupFailed:     "Settings backup failed",
	MsgBackupNoPrefs:    "No preferences found to back up",
	MsgBackupSuccess:    "Settings backed up successfully",
	MsgRestoreNoBackup:  "No settings backup found",
	MsgRestoreFailed:    "Settings restore failed",
	MsgRestoreSuccess:   "Settings restored successfully",
}

func (k MessageKind) String() string {
	if s, ok := messageText[k]; ok {
		return s
	}
	return "unknown message"
}

// Success reports whether the message announces a successful operation.
func (k MessageKind) Success() bool {
	return k == MsgBackupSuccess || k == MsgRestoreSuccess
}

// AppPickerFailurePolicy decides what a failed app picker copy during
// restore reports.
type AppPickerFailurePolicy int

const (
	// AppPickerFailureReportsSuccess shows the failure message, stops the
	// restore and still returns success. This is the historical behaviour.
	AppPickerFailureReportsSuccess AppPickerFailurePolicy = iota

	// AppPickerFailureAborts treats the failure like every other copy failure.
	AppPickerFailureAborts
)
