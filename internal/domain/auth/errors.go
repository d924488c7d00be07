package auth

import "errors"

// ErrEmailExists indicates a duplicate email address.
var ErrEmailExists = errors.New("email already exists")

// ErrAccountExists indicates a duplicate (provider, providerAccountId) pair.
var ErrAccountExists = errors.New("external account already linked")
