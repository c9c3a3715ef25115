package forecast

import "errors"

// ErrModelFit is matched by every *ModelFitError.
var ErrModelFit = errors.New("model fit failed")

// ModelFitError reports why the seasonal model could not be fitted.
type ModelFitError struct {
	Reason       string
	Observations int
}

func (e *ModelFitError) Error() string {
	return "holt-winters fit: " + e.Reason
}

func (e *ModelFitError) Is(target error) bool {
	return target == ErrModelFit
}
