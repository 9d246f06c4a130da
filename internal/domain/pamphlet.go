package domain

// Pamphlet is a fetched pamphlet image.
type Pamphlet struct {
	URL         string
	ContentType string
	Data        []byte
}
