package agent

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Intent is the decoded form of the external NL parser's JSON document
// (§6 Intent Input). The parser itself is an external collaborator; this
// type and Decode are the seam on our side of that boundary.
type Intent struct {
	Action      string `json:"action" validate:"required_without=IsMultistep"`
	IsMultistep bool   `json:"is_multistep,omitempty"`
	Steps       []Step `json:"steps,omitempty" validate:"omitempty,dive"`
	Err         string `json:"error,omitempty"`

	BlockType  string `json:"blockType,omitempty"`
	ItemName   string `json:"itemName,omitempty"`
	Count      int    `json:"count,omitempty"`
	MobType    string `json:"mobType,omitempty"`
	Radius     int    `json:"radius,omitempty"`
	CropType   string `json:"cropType,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Distance   int    `json:"distance,omitempty"`
	X          int    `json:"x,omitempty"`
	Y          int    `json:"y,omitempty"`
	Z          int    `json:"z,omitempty"`
	Message    string `json:"message,omitempty"`
	FilePath   string `json:"filePath,omitempty"`
	Blueprint  string `json:"blueprint,omitempty"`
	Position   *struct {
		X, Y, Z int
	} `json:"position,omitempty"`
}

// Step is one entry of a multistep Intent.
type Step struct {
	Action string `json:"action" validate:"required"`
	Params map[string]any `json:"params,omitempty"`
}

var validate = validator.New()

// DecodeIntent parses and validates a raw intent document. An empty but
// well-formed {"error": "..."} document decodes successfully; the caller
// checks Intent.Err before dispatching.
func DecodeIntent(data []byte) (*Intent, error) {
	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decoding intent: %w", err)
	}

	if in.Err != "" {
		return &in, nil
	}

	if err := validateVerb(in); err != nil {
		return nil, err
	}

	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("validating intent: %w", err)
	}

	return &in, nil
}

// validateVerb checks the verb-specific required parameters named in §6,
// since they vary per action and can't be expressed as static struct tags
// without making every field required for every verb.
func validateVerb(in Intent) error {
	if in.IsMultistep {
		if len(in.Steps) == 0 {
			return fmt.Errorf("multistep intent has no steps")
		}
		return nil
	}

	switch in.Action {
	case "mine":
		if in.BlockType == "" {
			return fmt.Errorf("mine requires blockType")
		}
	case "craft", "smelt":
		if in.ItemName == "" {
			return fmt.Errorf("%s requires itemName", in.Action)
		}
	case "fight":
		if in.MobType == "" {
			return fmt.Errorf("fight requires mobType")
		}
	case "harvest":
		if in.CropType == "" {
			return fmt.Errorf("harvest requires cropType")
		}
	case "follow":
		if in.PlayerName == "" {
			return fmt.Errorf("follow requires playerName")
		}
	case "give":
		if in.PlayerName == "" || in.ItemName == "" {
			return fmt.Errorf("give requires playerName and itemName")
		}
	case "goto":
		// x, y, z default to zero values, which are themselves valid
		// coordinates; nothing further to validate.
	case "respond":
		if in.Message == "" {
			return fmt.Errorf("respond requires message")
		}
	case "load_blueprint":
		if in.FilePath == "" {
			return fmt.Errorf("load_blueprint requires filePath")
		}
	case "build_structure":
		if in.Blueprint == "" {
			return fmt.Errorf("build_structure requires blueprint")
		}
	case "stop", "status":
		// no parameters required
	default:
		return fmt.Errorf("unknown action: %s", in.Action)
	}

	return nil
}

// Goal converts a mine/craft/smelt/harvest Intent into a resolver Goal.
// It panics if called on an Intent whose Action isn't one of those four;
// callers dispatch on Action before calling it.
func (in Intent) Goal() Goal {
	switch in.Action {
	case "mine":
		return Goal{Item: Item(in.BlockType), Count: countOrOne(in.Count)}
	case "craft", "smelt":
		return Goal{Item: Item(in.ItemName), Count: countOrOne(in.Count)}
	case "harvest":
		return Goal{Item: Item(in.CropType), Count: countOrOne(in.Count)}
	default:
		panic(fmt.Sprintf("agent: Goal() called on non-goal intent action %q", in.Action))
	}
}

func countOrOne(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// Goal is a resolved request for goal_count units of goal_item, the input
// to the Goal Resolver.
type Goal struct {
	Item  Item
	Count int
}
