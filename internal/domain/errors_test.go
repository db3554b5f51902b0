package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MessageAndUnwrap(t *testing.T) {
	err := IOError("delete", "/base/a.txt", fs.ErrNotExist)
	require.Error(t, err)

	assert.Equal(t, KindIO, KindOf(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, `IO error: delete "/base/a.txt": file does not exist`, err.Error())
}

func TestImageError_Prefix(t *testing.T) {
	err := ImageError("decode", "", errors.New("bad header"))
	assert.Equal(t, KindImage, KindOf(err))
	assert.Equal(t, "Image error: decode: bad header", err.Error())
}

func TestWrap_KeepsFirstKind(t *testing.T) {
	inner := ImageError("decode", "/x.webp", errors.New("truncated"))
	outer := IOError("convert", "/x.webp", fmt.Errorf("ctx: %w", inner))

	assert.Equal(t, KindImage, KindOf(outer))
	assert.Nil(t, IOError("noop", "", nil))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}
