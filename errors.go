package trovochat

import "errors"

var (
	ErrInvalidCfg        = errors.New("trovochat: invalid options")
	ErrInvalidUserConfig = errors.New("trovochat: nick and token must not be empty")
	ErrEmptyChannelName  = errors.New("trovochat: empty channel name")

	ErrMalformedFrame = errors.New("decode: message has no command")

	ErrAlreadyRegistered   = errors.New("register: registration already started")
	ErrInvalidRegistration = errors.New("register: invalid nick/token combination")

	ErrWriterClosed = errors.New("writer: write queue has been torn down")
	ErrAlreadyRan   = errors.New("trovochat: Run may only be called once")
)
