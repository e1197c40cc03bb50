package setversion

import (
	"context"
)

// Run validates the untyped configPath and version as [Validate] does,
// updates the project with a new [Setter], and calls callback with the
// outcome before returning. Every failure is delivered to callback. A nil
// callback is a programming error: Run panics with an [*ArgumentTypeError]
// before touching any file.
func Run(configPath, version any, callback func(error)) {
	New().Run(context.Background(), configPath, version, nil, callback)
}

// Run is like the package-level [Run], additionally accepting a build number
// and using the configuration of s.
func (s *Setter) Run(ctx context.Context, configPath, version, buildNumber any, callback func(error)) {
	if callback == nil {
		panic(&ArgumentTypeError{Arg: "callback", Want: "function"})
	}

	args, err := Validate(configPath, version, buildNumber)
	if err != nil {
		callback(err)

		return
	}

	_, err = s.SetVersion(ctx, args)
	callback(err)
}
