package httputil

// Static client-facing messages. Internal causes never reach the client.
const (
	MsgInternalError      = "Something went wrong"
	MsgInvalidBody        = "Invalid request body"
	MsgInvalidCredentials = "Invalid email or password"
	MsgDuplicateEmail     = "User with that email already exists"
	MsgUnauthenticated    = "You are not logged in, please provide a valid token"
	MsgProductNotFound    = "Product not found"
	MsgValidationPrefix   = "Validation error: "
)
