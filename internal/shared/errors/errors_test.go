package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetType(t *testing.T) {
	assert.Equal(t, ErrorTypeValidation, GetType(Validation("bad")))
	assert.Equal(t, ErrorTypeNotFound, GetType(fmt.Errorf("lookup: %w", NotFoundf("galaxy %s", "x"))))
	assert.Equal(t, ErrorTypeInternal, GetType(errors.New("plain")))
	assert.Equal(t, ErrorTypeInternal, GetType(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("did not converge")
	err := WrapUnprocessable("rules still fail", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeUnprocessable, GetType(err))
	assert.Equal(t, "rules still fail: did not converge", err.Error())
}
