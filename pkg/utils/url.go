package utils

import (
	"errors"
	"net/url"
)

func ParseHttpUrl(urlstr string) (string, error) {
	uri, err := url.Parse(urlstr)
	if err != nil {
		return "", err
	}

	if uri.Port() == "" {
		uri.Host += ":8080"
	}

	switch uri.Scheme {
	case "tcp":
		return uri.Host, nil
	default:
		return "", errors.New("Unsupported protocol: " + uri.Scheme)
	}
}

// Parses a string of the form <scheme>://<host>:<port> and returns the
// host and port as a string, or an error if the string is not a valid URL.
// If the port is not specified, it defaults to 9090.
// The scheme must be "tcp".
func ParseGrpcUrl(urlstr string) (string, error) {
	uri, err := url.Parse(urlstr)
	if err != nil {
		return "", err
	}

	if uri.Port() == "" {
		uri.Host += ":9090"
	}

	switch uri.Scheme {
	case "tcp":
		return uri.Host, nil
	default:
		return "", errors.New("Unsupported protocol: " + uri.Scheme)
	}
}
