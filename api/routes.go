package api

// Route constants for the API endpoints

const (
	// Health endpoints
	PingEndpoint = "/ping" // Health check endpoint

	// Message endpoints
	IndexURLParam    = "index"                                       // URL parameter for message and state indexes
	MessagesEndpoint = "/messages"                                   // GET: message count or range, POST: publish a message
	MessageEndpoint  = MessagesEndpoint + "/{" + IndexURLParam + "}" // GET: message by index
	FromQueryParam   = "from"                                        // Query parameter, first index of the range
	ToQueryParam     = "to"                                          // Query parameter, end of the range (exclusive)

	// ABI encoded message endpoints
	MessagesABIEndpoint = MessagesEndpoint + "/abi" // POST: publish an ABI encoded message
	MessageABIEndpoint  = MessageEndpoint + "/abi"  // GET: ABI encoding of a message by index

	// State leaf endpoints
	LeavesEndpoint    = "/leaves"                                   // Prefix of the state leaf endpoints
	BlankLeafEndpoint = LeavesEndpoint + "/blank"                   // GET: blank leaf for the configured empty root
	LeafEndpoint      = LeavesEndpoint + "/{" + IndexURLParam + "}" // GET: state leaf by index (blank if unset)

	// Key endpoints
	ValidateKeysEndpoint = "/keys/validate" // POST: validate serialized keys
)
