package errors

import "fmt"

// Wrap prefixes err with msg and keeps it matchable with errors.Is. A nil err
// stays nil, so the result can be returned directly:
//
//	return errors.Wrap(cfgErr, "failed to load configuration")
//
// Wrap at package boundaries only; wrapping at every frame repeats context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message:
//
//	return errors.Wrapf(err, "failed to call role %s", roleID)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
