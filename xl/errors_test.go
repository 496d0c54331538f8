package xl

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClasses(t *testing.T) {
	for _, test := range []struct {
		err   error
		usage bool
		io    bool
		input bool
	}{
		{ErrWriterNotOpened.New(), true, false, false},
		{ErrWriterAlreadyOpened.New(), true, false, false},
		{ErrInvalidSheetName.New("a/b", "bad"), true, false, false},
		{ErrSheetNotFound.New("x"), true, false, false},
		{ErrMaxRowsReached.New("Sheet1", 10), true, false, false},
		{ErrInvalidOutlineLevel.New(8), true, false, false},
		{ErrIO.Wrap(os.ErrNotExist, "open", "/tmp/x"), false, true, false},
		{ErrUnsupportedCellType.New("chan int"), false, false, true},
		{ErrCellValueTooLong.New(MaxCharactersPerCell), false, false, true},
		{ErrInvalidNumber.New("A1", "NaN"), false, false, true},
		{ErrInvalidCoord.New("A0", "bad"), false, false, true},
		{ErrInvalidString.New("cell A1", "\xff"), false, false, true},
		{os.ErrClosed, false, false, false},
	} {
		assert.Equal(t, test.usage, IsUsageError(test.err), "%v", test.err)
		assert.Equal(t, test.io, IsIOError(test.err), "%v", test.err)
		assert.Equal(t, test.input, IsInputError(test.err), "%v", test.err)
	}

	err := ErrIO.Wrap(os.ErrNotExist, "open", "/tmp/x")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "unable to open /tmp/x")
}
