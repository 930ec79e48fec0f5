package domain

import "errors"

var ErrNoPersonalProfile = errors.New("no personal profile found")
var ErrRecipientNotFound = errors.New("recipient not found")
var ErrNoBalanceOption = errors.New("no BALANCE payment option available")
