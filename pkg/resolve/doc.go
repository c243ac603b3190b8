// Package resolve computes the transitive closure of message and enum types
// reachable from a method's request or response type.
//
// Usage:
//
//	collector := resolve.NewCollector(reg, resolve.DefaultCacheSize)
//	set, err := collector.Collect("greeter.v1.HelloRequest")
//	for _, decl := range set {
//		fmt.Println(decl.Ref)
//	}
//
// A TypeSet never lists a type twice and is ordered by declaration order in
// the schema, so regenerating documentation yields identical output.
package resolve
