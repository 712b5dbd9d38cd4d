package dialog

import "errors"

var errNoJSON = errors.New("no JSON object in output")
