// Package envtags derives the tags that segment the artifact output tree.
//
// Three tags are produced per run: the runtime tag (py311) from the build
// interpreter, the accelerator tag (cuda12.1) from configuration, and the
// platform tag (linux_x86_64) from the live system. The configured runtime
// version must agree with the interpreter at major.minor granularity; any
// other disagreement between configuration and environment is only logged.
//
// Example usage:
//
//	resolver := envtags.NewResolver(
//	    envtags.PythonProbe(r, "python"),
//	    envtags.NvccProbe(r, "nvcc"),
//	)
//	tags, err := resolver.Resolve(ctx, cfg.Target)
//	if err != nil {
//	    return err // fatal: wrong interpreter
//	}
//	outputDir := tags.OutputDir(outputRoot)
package envtags
