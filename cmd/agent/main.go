// Command agent is a goal-driven Minecraft crafting agent: it resolves
// crafting/gathering/building goals into Plans, executes them against
// the world, and serves the same capabilities over MCP.
package main

import "github.com/rsned/minebot-agent/cmd/agent/cli"

func main() {
	cli.Execute()
}
