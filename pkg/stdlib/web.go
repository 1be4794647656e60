package stdlib

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/luma-lang/luma/pkg/runtime"
)

// @std.http — request failures and non-2xx statuses come back as nil so
// scripts decide how to react.

var httpClient = &http.Client{Timeout: 10 * time.Second}

func fetchBody(resp *http.Response, err error) (runtime.Value, error) {
	if err != nil {
		return runtime.Nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return runtime.Nil, nil
	}
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return runtime.Nil, nil
	}
	return runtime.Str(string(body)), nil
}

func httpNatives() table {
	return table{
		"get": native("get", 1, func(args []runtime.Value) (runtime.Value, error) {
			url, err := argString(args[0], "http.get url")
			if err != nil {
				return nil, err
			}
			resp, reqErr := httpClient.Get(url)
			return fetchBody(resp, reqErr)
		}),
		"post": native("post", 2, func(args []runtime.Value) (runtime.Value, error) {
			url, err := argString(args[0], "http.post url")
			if err != nil {
				return nil, err
			}
			body, err := argString(args[1], "http.post body")
			if err != nil {
				return nil, err
			}
			resp, reqErr := httpClient.Post(url, "application/octet-stream", strings.NewReader(body))
			return fetchBody(resp, reqErr)
		}),
	}
}
