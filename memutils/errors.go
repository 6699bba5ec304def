package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// BlockSizeError is returned when an allocator is configured with a minimum block size larger than its maximum
var BlockSizeError error = errors.New("minimum block size must not exceed maximum block size")

// ZeroSizeError is returned when a page, heap, or allocation request of zero bytes is made
var ZeroSizeError error = errors.New("size must be greater than zero")
