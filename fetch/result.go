package fetch

// Result records the outcome of a single fetch attempt. Exactly one of
// the success fields (Path, Size) or Err is populated.
type Result struct {
	URL  string // URL the attempt was made against.
	Path string // Final path of the saved file; empty on failure.
	Size int64  // Payload size in bytes; zero on failure.
	Err  error  // Reason the attempt failed; nil on success.
}

// OK returns true if the fetch succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

func success(u string, path string, size int64) Result {
	return Result{
		URL:  u,
		Path: path,
		Size: size,
	}
}

func failure(u string, err error) Result {
	return Result{
		URL: u,
		Err: err,
	}
}
