// Package builder implements the Structure Builder (§4.7): loading a
// Blueprint, checking and resolving its resource requirements, optionally
// preparing and clearing the build site, then placing every voxel in a
// support-respecting order.
package builder

import (
	"regexp"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// solidWhitelist names items that are always a valid placement reference
// regardless of the pattern rules below (§9 Block-support classification).
var solidWhitelist = map[agent.Item]bool{
	"stone":        true,
	"dirt":         true,
	"grass_block":  true,
	"cobblestone":  true,
	"deepslate":    true,
	"wool":         true,
	"terracotta":   true,
	"concrete":     true,
	"snow_block":   true,
	"ice":          true,
	"packed_ice":   true,
	"blue_ice":     true,
	"netherrack":   true,
}

// solidPatterns catches whole families of full-cube blocks by name suffix
// rather than enumerating every wood/ore variant (§9).
var solidPatterns = []*regexp.Regexp{
	regexp.MustCompile(`_planks$`),
	regexp.MustCompile(`_log$`),
	regexp.MustCompile(`_ore$`),
}

// nonSolidPattern matches items that are not a full cube — stairs, slabs,
// doors, and the rest of the §9 blacklist. It is checked before the
// whitelist and solidPatterns, so a match is never solid.
var nonSolidPattern = regexp.MustCompile(
	`stairs|slab|door|trapdoor|fence|gate|ladder|torch|button|lever|rail|` +
		`carpet|pane|bars|chest|barrel|furnace|crafting_table|pressure_plate|sign|bed`,
)

// snowLayer is the one whitelist exception: "snow_block" is solid but the
// thin "snow" layer variant is not (§9).
const snowLayer = agent.Item("snow")

// IsSolidSupport reports whether item is a valid placement reference face
// — a full solid cube a new block can be placed against.
func IsSolidSupport(item agent.Item) bool {
	if item == snowLayer {
		return false
	}
	if nonSolidPattern.MatchString(string(item)) {
		return false
	}
	if solidWhitelist[item] {
		return true
	}
	for _, p := range solidPatterns {
		if p.MatchString(string(item)) {
			return true
		}
	}
	return false
}

// replaceablePlants are world blocks the Builder's per-voxel placement may
// overwrite directly without an explicit dig step. The clear-area phase
// does not consult this set; it digs them like any other block.
var replaceablePlants = map[agent.Item]bool{
	"grass":       true,
	"tall_grass":  true,
	"fern":        true,
	"large_fern":  true,
	"dead_bush":   true,
	"snow":        true,
	"vine":        true,
	"air":         true,
}

// IsReplaceable reports whether a world block can be overwritten by
// placement without first being dug.
func IsReplaceable(item agent.Item) bool {
	return replaceablePlants[item]
}

// groundFillPreference is the ordered preference list for filling
// unsupported ground cells during ground prep (§4.7 step 2).
var groundFillPreference = []agent.Item{"dirt", "cobblestone", "stone", "netherrack"}

func groundFillItem(held func(agent.Item) int) agent.Item {
	for _, candidate := range groundFillPreference {
		if held(candidate) > 0 {
			return candidate
		}
	}
	return groundFillPreference[0]
}
