package usecase

import "time"

// SetNow overrides the use case clock; visible only to the test binary.
func (u *PaymentUseCase) SetNow(fn func() time.Time) { u.now = fn }
