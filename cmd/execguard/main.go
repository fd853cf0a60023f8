// execguard is the execution-safety CLI: it validates commands against
// the allowlist, runs them sandboxed under resource limits, gates
// destructive git operations behind explicit confirmation, and manages
// the API credential.
package main

func main() {
	Execute()
}
