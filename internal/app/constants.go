package app

// ActorTokenIssuer is the default iss claim for actor tokens.
const ActorTokenIssuer = "squirrelstash"
