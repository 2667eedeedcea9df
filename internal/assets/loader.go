package assets

// StyleLoader loads CSS stylesheets by name (without .css extension).
// Returns ErrStyleNotFound if the style doesn't exist and ErrInvalidAssetName
// if the name contains invalid characters.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}
