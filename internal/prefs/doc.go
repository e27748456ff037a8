// Package prefs implements a world-readable key/value store backed by one
// XML file per store, in the map format used by Android shared preferences:
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<map>
//	    <boolean name="dummy" value="false"></boolean>
//	    <string name="settings_uuid">3f0c…</string>
//	</map>
//
// Changes are batched through an [Editor] and written with a temp file +
// rename, so readers of the file never observe a partial commit. Committed
// files are mode 0644.
//
// A [Store] doubles as a change listener: when the backing file is rewritten
// behind its back (for example by a restore) it reloads itself.
package prefs
