package exchange

import (
	"errors"
	"fmt"
)

// Kind: класс сбоя запроса к бирже.
type Kind string

const (
	KindTransport Kind = "transport" // сеть, таймаут, отмена
	KindStatus    Kind = "status"    // не 2xx
	KindDecode    Kind = "decode"    // битый JSON
	KindRejected  Kind = "rejected"  // result=false
)

type Error struct {
	Kind   Kind
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s %s: http %d: %s", e.Op, e.Kind, e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, e.Body)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf возвращает класс сбоя или "" если это не *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
