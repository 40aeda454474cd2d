package asset

import "github.com/FishAndRips/magellanicus/rendererr"

func invalidDataf(format string, args ...any) error {
	return rendererr.InvalidDataf(format, args...)
}

func notFoundf(format string, args ...any) error {
	return rendererr.NotFoundf(format, args...)
}

func alreadyExistsf(format string, args ...any) error {
	return rendererr.AlreadyExistsf(format, args...)
}
