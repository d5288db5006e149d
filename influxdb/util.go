package influxdb

import (
	"net/url"

	"github.com/google/go-querystring/query"
	"github.com/tidwall/gjson"
)

// buildQueryParams builds the /query URL parameters for a request
func buildQueryParams(req QueryRequest) (url.Values, error) {
	return query.Values(queryParams{
		Database:  req.Database,
		Query:     req.Query,
		Pretty:    req.Pretty,
		Epoch:     req.Epoch,
		Chunked:   req.Chunked,
		ChunkSize: req.ChunkSize,
	})
}

// buildWriteParams builds the /write URL parameters
func buildWriteParams(database string) (url.Values, error) {
	return query.Values(writeParams{
		Database: database,
	})
}

// ExtractError pulls the error message out of a raw /query response body, if
// any. Checks the top-level error first, then per-statement errors.
func ExtractError(raw []byte) string {
	if topLevel := gjson.GetBytes(raw, "error"); topLevel.Exists() {
		return topLevel.String()
	}
	for _, result := range gjson.GetBytes(raw, "results").Array() {
		if errMsg := result.Get("error"); errMsg.Exists() {
			return errMsg.String()
		}
	}
	return ""
}

// CountSeries counts the series in a raw /query response body
func CountSeries(raw []byte) int {
	count := 0
	for _, result := range gjson.GetBytes(raw, "results").Array() {
		count += int(result.Get("series.#").Int())
	}
	return count
}

// CountRows counts the value rows across all series in a raw /query response body
func CountRows(raw []byte) int {
	count := 0
	for _, result := range gjson.GetBytes(raw, "results").Array() {
		for _, series := range result.Get("series").Array() {
			count += int(series.Get("values.#").Int())
		}
	}
	return count
}
