package executor

const helpText = `Available Commands:

search <query>              - Search file names and contents
add into <file>             - Add code into a file (code follows on the next lines)
build                       - Build the project with cargo build
run [args]                  - Run the project with cargo run
test [name]                 - Run tests with cargo test
profile                     - Build with --release for profiling
list files                  - List all Rust files in the project
list functions <file>       - List all functions in a file
show <file>                 - Show file contents
show <file>::<function>     - Show a single function
help                        - Show this help message

Examples:
  search npc.rs
  add into src/npc.rs
  build
  run --verbose
  test test_npc
  list files
  list functions src/main.rs
  show src/main.rs
  show src/npc.rs::spawn_npc
`
