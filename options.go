package manorbill

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithConversionEndpoint routes image uploads to the external conversion
// service at the given URL.
func WithConversionEndpoint(url string) Option {
	return func(ing *Ingestor) {
		ing.client = NewConversionClient(url)
	}
}

// WithConversionClient supplies a preconfigured conversion client, for
// custom HTTP transports or timeouts.
func WithConversionClient(c *ConversionClient) Option {
	return func(ing *Ingestor) {
		ing.client = c
	}
}
