// Package autowire builds objects by resolving their constructor parameters
// from a container.
//
// # Classes
//
// Go cannot look a constructor up by type name at runtime, so classes are
// declared in a Registry:
//
//	reg := autowire.NewRegistry()
//	reg.Define(autowire.Name[*SearchController](), NewSearchController,
//	    autowire.Autowired(),
//	    autowire.Params("searches", "specs", "catalog", "url"),
//	    autowire.Tag(0, "config=searches"),
//	    autowire.Tag(1, "config=searchspecs, configType=yaml"),
//	    autowire.Tag(3, "container=view.helpers"),
//	)
//
// # Resolution
//
// Each parameter is resolved in order:
//
//  1. a config directive injects a configuration: configType array (the
//     default) and object come from the config manager, yaml from the YAML
//     reader (name + ".yaml");
//  2. otherwise a service is fetched: the directive's service name, else the
//     container key of the declared type (see container.KeyOf). A directive
//     container name selects a sub-container first.
//
// Parameters declared as any, or with a builtin type such as string or
// map[string]any, cannot be resolved without a directive.
//
// # Eligibility
//
// A Classifier answers whether a class may be autowired without being asked
// for explicitly: classes without constructor parameters always may, others
// only when defined with Autowired(). AbstractFactory combines both so a
// container builds eligible classes on first Get.
package autowire
