package usecase

import "errors"

var ErrUnknownGameType = errors.New("unknown game type")
