package xl

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

// Usage errors: the writer was driven in a way its lifecycle does not allow.
var (
	ErrWriterNotOpened     = errors.NewKind("the writer must be opened before performing this action")
	ErrWriterAlreadyOpened = errors.NewKind("the writer has already been opened")
	ErrInvalidSheetName    = errors.NewKind("invalid sheet name %q: %s")
	ErrSheetNotFound       = errors.NewKind("sheet %q does not belong to this workbook")
	ErrMaxRowsReached      = errors.NewKind("sheet %q reached the maximum of %d rows")
	ErrInvalidOutlineLevel = errors.NewKind("outline level %d must range between 0 and 7")
)

// I/O errors name the operation and the offending path.
var ErrIO = errors.NewKind("unable to %s %s")

// Input validation errors.
var (
	ErrUnsupportedCellType = errors.NewKind("trying to add a value with an unsupported type: %s")
	ErrCellValueTooLong    = errors.NewKind("trying to add a value that exceeds the maximum number of characters allowed in a cell (%d)")
	ErrInvalidNumber       = errors.NewKind("cell %s holds a number that cannot be stored: %v")
	ErrInvalidCoord        = errors.NewKind("invalid cell coordinate %q: %s")
	ErrInvalidString       = errors.NewKind("%s holds text that is not valid UTF-8: %q")
)

// IsUsageError reports whether err was caused by driving the writer out of order
// or by an invalid sheet configuration.
func IsUsageError(err error) bool {
	return ErrWriterNotOpened.Is(err) || ErrWriterAlreadyOpened.Is(err) ||
		ErrInvalidSheetName.Is(err) || ErrSheetNotFound.Is(err) ||
		ErrMaxRowsReached.Is(err) || ErrInvalidOutlineLevel.Is(err)
}

// IsIOError reports whether err comes from the file system or the output stream.
func IsIOError(err error) bool {
	return ErrIO.Is(err)
}

// IsInputError reports whether err was caused by a value that cannot be written.
func IsInputError(err error) bool {
	return ErrUnsupportedCellType.Is(err) || ErrCellValueTooLong.Is(err) ||
		ErrInvalidNumber.Is(err) || ErrInvalidCoord.Is(err) ||
		ErrInvalidString.Is(err)
}
