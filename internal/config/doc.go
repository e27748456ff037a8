// Package config provides configuration management for the prefkeep CLI.
//
// # Configuration File
//
// config.yaml is searched in the current directory and then in
// $XDG_CONFIG_HOME/prefkeep. Every key can also be set from the environment
// with the PREFKEEP_ prefix, dots replaced by underscores:
//
//	backup_root: ~/GravityBox/backup
//	data_dir: ~/.local/share/prefkeep
//	prefs_dir: ""                     # optional, probed when empty
//	package_name: com.ceco.oreo.gravitybox
//	legacy_primary_names:
//	  - com.ceco.nougat.gravitybox_preferences.xml
//	skip_permission_check: false
//	restore:
//	  app_picker_failure: report-success   # or abort
//
// # Loading Configuration
//
// Call [Init] once, then [Load]. Load validates the result and marks
// failures with errors.ErrInvalidConfig:
//
//	config.Init()
//	cfg, err := config.Load(flagPath)
//	if err != nil {
//	    return errors.NewConfigError(err)
//	}
//
// [Validate] returns one [FieldError] per problem so all of them can be
// reported at once.
package config
