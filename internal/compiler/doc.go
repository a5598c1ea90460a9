// Package compiler invokes the external binary dictionary compiler.
//
// The compiler is a black box: it receives the intermediate text file and
// the desired output path, and success is a zero exit status. The Compiler
// interface keeps the rest of freqdict independent of the actual tool so
// that builds can be tested without spawning processes.
//
// DictTool runs the AOSP dicttool:
//
//	java -jar dicttool_aosp.jar makedict -s <intermediate> -d <output>
package compiler
