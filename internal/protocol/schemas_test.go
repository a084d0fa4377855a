package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	intentSchema := compile("intent.schema.json")
	frameSchema := compile("frame.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "client_name":"viewer1"
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "session_id":"3f1a9c2e",
	  "resume_token":"resume_1337_42",
	  "world_params":{
	    "tick_rate_hz":60,
	    "width":400,
	    "height":200,
	    "seed":1337,
	    "day_length_seconds":600,
	    "view_width":40,
	    "view_height":22
	  },
	  "hotbar":["DIRT","STONE","WOOD","SAND","GLASS","TORCH","BRICK"]
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var intent any
	_ = json.Unmarshal([]byte(`{
	  "type":"INTENT",
	  "protocol_version":"1.0",
	  "seq":12,
	  "move_left":false,
	  "move_right":true,
	  "jump":true,
	  "pointer_tile_x":201,
	  "pointer_tile_y":108,
	  "mine_held":true,
	  "place_held":false,
	  "hotbar_index":0
	}`), &intent)
	validate(intentSchema, intent)

	var frame any
	_ = json.Unmarshal([]byte(`{
	  "type":"FRAME",
	  "protocol_version":"1.0",
	  "tick":600,
	  "time":10.0,
	  "window":{
	    "x":180,"y":98,"width":3,"height":2,
	    "encoding":"RLE",
	    "tiles":"AAMCAw==",
	    "shade":[1,1,1,0.6,0.6,0.6]
	  },
	  "actor":{
	    "pos":[200.5,107.1],"vel":[0.12,0.0],
	    "grounded":true,"facing":1,
	    "health":87.5,"max_health":100
	  },
	  "env":{
	    "day_time":0.82,"daytime":false,
	    "weather":"STORM","intensity":0.75,"darkness":0.6
	  },
	  "particles":[{"x":190.2,"y":100.1,"vx":-6,"vy":37.5,"len":1.1}],
	  "inventory":[{"tile":"DIRT","count":14},{"tile":"STONE","count":3}],
	  "message":{"text":"Storm incoming","time_left":2.5}
	}`), &frame)
	validate(frameSchema, frame)
}
