package pathbuilder

// PathEntry is the introspection-output shape for one catalog path (spec
// §6, "Mutation-path introspection output").
type PathEntry struct {
	Description      string        `json:"description"`
	Type             string        `json:"type"`
	TypeKind         string        `json:"type_kind"`
	Mutability       string        `json:"mutability"`
	MutabilityReason string        `json:"mutability_reason,omitempty"`
	Example          interface{}   `json:"example,omitempty"`
	Examples         []interface{} `json:"examples,omitempty"`
	EnumInstructions []string      `json:"enum_instructions,omitempty"`
	ApplicableVariants []string    `json:"applicable_variants,omitempty"`
	RootExample      interface{}   `json:"root_example,omitempty"`
}

// ToIntrospectionOutput renders a Catalog into the mapping C4 produces
// standalone for mutation-path introspection tools (spec §6).
func ToIntrospectionOutput(c *Catalog, kindName func(MutationPathInternal) string) map[string]PathEntry {
	out := make(map[string]PathEntry, len(c.Paths))
	for _, mp := range c.Paths {
		entry := PathEntry{
			Type:       string(mp.TypeName),
			TypeKind:   typeKindLabel(*mp),
			Mutability: mp.Mutability.String(),
		}
		if mp.MutabilityReason != ReasonNone {
			entry.MutabilityReason = string(mp.MutabilityReason)
		}
		if mp.Path == "" {
			entry.Description = "the whole value"
		} else {
			entry.Description = "mutation path " + mp.Path
		}

		switch mp.Example.Kind {
		case ExampleSimple:
			entry.Example = mp.Example.Simple
		case ExampleEnumRoot:
			examples := make([]interface{}, 0, len(mp.Example.Groups))
			for _, g := range mp.Example.Groups {
				examples = append(examples, g.Example)
			}
			entry.Examples = examples
			entry.RootExample = mp.Example.ForParent
		}

		if mp.EnumPathData != nil {
			entry.ApplicableVariants = mp.EnumPathData.ApplicableVariants
			if mp.EnumPathData.RootExample != nil {
				entry.RootExample = mp.EnumPathData.RootExample
			}
			for _, lvl := range mp.EnumPathData.Levels {
				entry.EnumInstructions = append(entry.EnumInstructions,
					"set "+lvl.EnumPath+" to variant "+lvl.VariantName+" first")
			}
		}
		out[mp.Path] = entry
	}
	return out
}

func typeKindLabel(mp MutationPathInternal) string {
	if mp.Example.Kind == ExampleEnumRoot {
		return "Enum"
	}
	return "Value"
}
